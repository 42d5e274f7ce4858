package migration

import (
	"github.com/junior875/nfcePt2/internal/config"
	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
	produtodomain "github.com/junior875/nfcePt2/internal/produto/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// mysql and sqlite are dev/test conveniences; let gorm derive
			// the schema instead of maintaining per-dialect SQL.
			return conn.AutoMigrate(
				&empresadomain.Empresa{},
				&empresadomain.Endereco{},
				&produtodomain.Produto{},
				&nfcedomain.NFCe{},
				&nfcedomain.ItemNFCe{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
