package handler

import (
	"termoarena/internal/app/session"
	"termoarena/internal/app/words"
	"termoarena/internal/configs"
)

// AppDeps bundles the long-lived collaborators handed to every handler.
type AppDeps struct {
	Registry   *session.Registry
	Controller *session.Controller
	Catalog    *words.Catalog
	Config     *configs.AppConfig
}
