package deps

import (
	"gorm.io/gorm"

	"github.com/joefazee/flashpred/app/oracle"
	"github.com/joefazee/flashpred/app/vault"
	"github.com/joefazee/flashpred/internal/logger"
	"github.com/joefazee/flashpred/internal/sanitizer"
)

// Container holds all shared dependencies
type Container struct {
	DB        *gorm.DB
	Custody   vault.Custody
	Feeds     oracle.FeedProvider
	Reader    oracle.Reader
	Sanitizer sanitizer.HTMLStripperer
	Logger    logger.Logger
}

func NewContainer(
	db *gorm.DB,
	custody vault.Custody,
	feeds oracle.FeedProvider,
	reader oracle.Reader,
	htmlSanitizer sanitizer.HTMLStripperer,
	lg logger.Logger,
) *Container {
	return &Container{
		DB:        db,
		Custody:   custody,
		Feeds:     feeds,
		Reader:    reader,
		Sanitizer: htmlSanitizer,
		Logger:    lg,
	}
}
