package handlers

// Handlers bundles every handler so route setup takes one argument.
type Handlers struct {
	TaskHandler   *TaskHandler
	HealthHandler *HealthHandler
}

func NewHandlers(taskHandler *TaskHandler, healthHandler *HealthHandler) *Handlers {
	return &Handlers{
		TaskHandler:   taskHandler,
		HealthHandler: healthHandler,
	}
}
