// Package registry owns a binding store for the lifetime of an application.
//
// A Registry pairs one binding.Store with the writer discipline the
// swap-on-write strategies need: every write goes through a single mutex,
// while reads go straight to the store without locking.
//
// # Basic Usage
//
//	r, err := registry.New[string, Handler](registry.WithStrategy(binding.StrategySnapshot))
//	if err != nil {
//	    return err
//	}
//	defer r.Close(ctx)
//
//	err = r.Configure(ctx, func(b *registry.Binder[string, Handler]) error {
//	    if err := b.Bind("users", usersHandler); err != nil {
//	        return err
//	    }
//	    return b.Bind("orders", ordersHandler)
//	})
//
//	h, ok := r.Get("users")
//
// # Services
//
// Services is a registry keyed by service type. Bind and Lookup hide the
// reflect.Type keys:
//
//	services, _ := registry.NewServices(registry.WithStrategy(binding.StrategyIdentity))
//	_ = registry.Bind[Clock](services, systemClock{})
//
//	clock := registry.MustLookup[Clock](services)
//
// # Lazy Initialization
//
// GetOrCreate binds a value on first use. The factory is called at most once
// per key, even under concurrent access:
//
//	pool, err := pools.GetOrCreate("users_db", func() (*Pool, error) {
//	    return NewPool("users_db")
//	})
//
// # Shutdown
//
// Close stops every bound value implementing Stopper or io.Closer, newest
// binding first, then empties the registry. Stop failures are joined into
// the returned error and never abort the shutdown.
//
// # Configuration
//
// NewFromConfig builds a registry from a file loaded by the config package:
//
//	cfg, err := config.FromFile("registry.yaml")
//	if err != nil {
//	    return err
//	}
//	services, err := registry.NewFromConfig[reflect.Type, any](cfg, slog.Default().Handler())
package registry
