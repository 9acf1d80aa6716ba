package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/quietleaf/mindlog/internal/app/api/server"
	"github.com/quietleaf/mindlog/internal/app/service/billing"
	"github.com/quietleaf/mindlog/internal/app/service/chat"
	"github.com/quietleaf/mindlog/internal/app/service/profile"
	"github.com/quietleaf/mindlog/internal/app/service/summary"
	"github.com/quietleaf/mindlog/internal/app/service/thought"
	"github.com/quietleaf/mindlog/internal/app/service/usage"
	"github.com/quietleaf/mindlog/internal/platform/db"
	"github.com/quietleaf/mindlog/internal/platform/genai"
	"github.com/quietleaf/mindlog/pkg/config"
	"github.com/quietleaf/mindlog/pkg/logger"
	"github.com/quietleaf/mindlog/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	metrics.Module,
	genai.Module,
	server.Module,
	profile.Module,
	usage.Module,
	thought.Module,
	chat.Module,
	summary.Module,
	billing.Module,
)
