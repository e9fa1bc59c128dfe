package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	zones := s.router.Group("/zones")
	{
		zones.POST("/classify", s.zoneHandler.ClassifyBatch)
		zones.POST("/classify/single", s.zoneHandler.ClassifySingle)
		zones.GET("/latest", s.zoneHandler.Latest)
		zones.GET("/critical", s.zoneHandler.Critical)
	}
	s.router.GET("/classification/rules", s.zoneHandler.Rules)

	alerts := s.router.Group("/alerts")
	{
		alerts.GET("/active", s.alertHandler.Active)
		alerts.GET("/priority", s.alertHandler.Priority)
		alerts.GET("/history", s.alertHandler.History)
		alerts.GET("/summary", s.alertHandler.Summary)
		alerts.GET("/stats", s.alertHandler.Stats)
		alerts.GET("/banner", s.alertHandler.Banner)
		alerts.GET("/:id/visual", s.alertHandler.Visual)
		alerts.GET("/:id/audio", s.alertHandler.Audio)
		alerts.POST("/evict", s.alertHandler.Evict)
		alerts.POST("/reset", s.alertHandler.Reset)
	}

	instructions := s.router.Group("/instructions")
	{
		instructions.GET("", s.instructionHandler.List)
		instructions.GET("/priority", s.instructionHandler.Priority)
		instructions.GET("/summary", s.instructionHandler.Summary)
		instructions.GET("/export", s.instructionHandler.Export)
		instructions.POST("/export", s.instructionHandler.ExportFile)
	}

	worker := s.router.Group("/worker")
	{
		worker.GET("/info", s.workerHandler.GetInfo)
		worker.POST("/shutdown", s.workerHandler.Shutdown)
	}

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
	}
}
