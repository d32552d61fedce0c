package main

import (
	"github.com/sells-group/jobscout/internal/store"
)

func initStore() (store.Store, error) {
	dsn := cfg.Store.Path
	if dsn == "" {
		dsn = "jobscout.db"
	}
	return store.NewSQLite(dsn)
}
