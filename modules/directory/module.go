package directory

import (
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/database"
	"admissions-scheduler/modules/directory/service"
)

// Init wires the application directory. It exposes no routes; the
// notification handler is its only consumer.
func Init(db database.IDatabase, c cache.Cache, guard *breaker.Guard, ttl time.Duration) *service.DirectoryService {
	return service.NewDirectoryService(db, c, guard, ttl)
}
