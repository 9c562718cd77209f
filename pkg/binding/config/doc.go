/*
Package config loads service registry configuration from YAML or JSON.

# Overview

A registry configuration selects the binding strategy and the ambient
observability settings:

	strategy: identity      # snapshot | identity | concurrent
	name: orm-services
	log_level: debug        # debug | info | warn | error
	metrics: true
	lookup_metrics: false
	tracing: true

# File Loading

	cfg, err := config.FromFile("registry.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

Fields missing from the input keep their Default values. Unknown fields are
rejected, and every loader validates the result, so a returned Registry is
always usable. Validation failures are reported as *ValidationError.
*/
package config
