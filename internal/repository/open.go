package repository

import (
	"context"

	"cleansweep/internal/config"
	"cleansweep/internal/db"
)

// Open connects the backend selected by cfg.StoreDriver and returns its
// repositories together with a func releasing the connection.
func Open(ctx context.Context, cfg *config.Config) (*Store, func(context.Context) error, error) {
	if cfg.StoreDriver == config.DriverMySQL {
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func(context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return NewGormStore(gormDB), closeFn, nil
	}

	client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, nil, err
	}
	return NewMongoStore(database), client.Disconnect, nil
}
