//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"mediacms/internal/config"
	"mediacms/internal/dbmongo"
	"mediacms/internal/dbmysql"
	"mediacms/internal/media"
)

type Application struct {
	Config *config.Config
	Mongo  *dbmongo.MongoClient
	DB     *gorm.DB
	Server *media.HTTPServer
}

func InitializeApplication() (*Application, error) {
	wire.Build(
		config.LoadConfig,
		dbmongo.NewMongoConnection,
		dbmongo.NewMediaRecordStore,
		wire.Bind(new(media.RecordStore), new(*dbmongo.MediaRecordStore)),
		dbmysql.NewMySQL,
		dbmysql.NewMediaRefRepository,
		media.NewLocationResolver,
		media.NewDerivativeGenerator,
		media.NewIngestionService,
		ProvideHTTPServer,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}

func ProvideHTTPServer(service media.IngestionService, refs dbmysql.MediaRefRepository, cfg *config.Config) *media.HTTPServer {
	return media.NewHTTPServer(service, refs, cfg.Media.RootDir)
}
