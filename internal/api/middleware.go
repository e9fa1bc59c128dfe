package api

import (
	"crowdwatch-worker-go/internal/api/middleware"
)

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestContext())

	s.router.Use(middleware.Recovery())

	s.router.Use(middleware.Logger())

	s.router.Use(middleware.CORS())
}
