package benchmarks

import (
	"reflect"
	"testing"

	"github.com/randalmurphal/servicebinding/pkg/binding"
)

// Service interfaces of a typical ORM session factory. Only their type
// descriptors are used, as binding keys.
type (
	CfgXMLAccessService                  interface{ cfgXMLAccess() }
	ClassLoaderService                   interface{ classLoader() }
	StrategySelector                     interface{ strategySelector() }
	RegionFactory                        interface{ regionFactory() }
	ConfigurationService                 interface{ configuration() }
	BatchBuilder                         interface{ batchBuilder() }
	ConnectionProvider                   interface{ connectionProvider() }
	DialectFactory                       interface{ dialectFactory() }
	DialectResolver                      interface{ dialectResolver() }
	JDBCEnvironment                      interface{ jdbcEnvironment() }
	JDBCServices                         interface{ jdbcServices() }
	JNDIService                          interface{ jndi() }
	NativeQueryInterpreter               interface{ nativeQueryInterpreter() }
	CacheImplementor                     interface{ cacheImplementor() }
	JTAPlatform                          interface{ jtaPlatform() }
	JTAPlatformResolver                  interface{ jtaPlatformResolver() }
	AuditService                         interface{ audit() }
	EventListenerRegistry                interface{ eventListenerRegistry() }
	QueryTranslatorFactory               interface{ queryTranslatorFactory() }
	IdentifierGeneratorFactory           interface{ identifierGeneratorFactory() }
	IntegratorService                    interface{ integrator() }
	JMXService                           interface{ jmx() }
	PersisterClassResolver               interface{ persisterClassResolver() }
	PersisterFactory                     interface{ persisterFactory() }
	PropertyAccessStrategyResolver       interface{ propertyAccessStrategyResolver() }
	TransactionCoordinatorBuilder        interface{ transactionCoordinatorBuilder() }
	SearchFactoryReference               interface{ searchFactoryReference() }
	JACCService                          interface{ jacc() }
	SessionFactoryServiceRegistryFactory interface{ sessionFactoryServiceRegistryFactory() }
	StatisticsImplementor                interface{ statisticsImplementor() }
	ImportSQLCommandExtractor            interface{ importSQLCommandExtractor() }
	SchemaManagementTool                 interface{ schemaManagementTool() }
)

// serviceKeys is the key universe bound into every store under test.
var serviceKeys = []reflect.Type{
	reflect.TypeFor[CfgXMLAccessService](),
	reflect.TypeFor[ClassLoaderService](),
	reflect.TypeFor[StrategySelector](),
	reflect.TypeFor[RegionFactory](),
	reflect.TypeFor[ConfigurationService](),
	reflect.TypeFor[BatchBuilder](),
	reflect.TypeFor[ConnectionProvider](),
	reflect.TypeFor[DialectFactory](),
	reflect.TypeFor[DialectResolver](),
	reflect.TypeFor[JDBCEnvironment](),
	reflect.TypeFor[JDBCServices](),
	reflect.TypeFor[JNDIService](),
	reflect.TypeFor[NativeQueryInterpreter](),
	reflect.TypeFor[CacheImplementor](),
	reflect.TypeFor[JTAPlatform](),
	reflect.TypeFor[JTAPlatformResolver](),
	reflect.TypeFor[AuditService](),
	reflect.TypeFor[EventListenerRegistry](),
	reflect.TypeFor[QueryTranslatorFactory](),
	reflect.TypeFor[IdentifierGeneratorFactory](),
	reflect.TypeFor[IntegratorService](),
	reflect.TypeFor[JMXService](),
	reflect.TypeFor[PersisterClassResolver](),
	reflect.TypeFor[PersisterFactory](),
	reflect.TypeFor[PropertyAccessStrategyResolver](),
	reflect.TypeFor[TransactionCoordinatorBuilder](),
	reflect.TypeFor[SearchFactoryReference](),
	reflect.TypeFor[JACCService](),
	reflect.TypeFor[SessionFactoryServiceRegistryFactory](),
	reflect.TypeFor[StatisticsImplementor](),
	reflect.TypeFor[ImportSQLCommandExtractor](),
	reflect.TypeFor[SchemaManagementTool](),
}

// The two most frequently resolved services.
var (
	eventListenerRegistryKey = reflect.TypeFor[EventListenerRegistry]()
	jdbcServicesKey          = reflect.TypeFor[JDBCServices]()
)

// populatedStore returns a store of strategy s with every service key bound.
func populatedStore(b *testing.B, s binding.Strategy) binding.Store[reflect.Type, string] {
	b.Helper()
	store, err := binding.New[reflect.Type, string](s)
	if err != nil {
		b.Fatal(err)
	}
	for _, k := range serviceKeys {
		if err := store.Put(k, "value"); err != nil {
			b.Fatal(err)
		}
	}
	return store
}

// sink keeps lookups from being optimized away.
var sink string
