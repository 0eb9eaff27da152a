package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background guide reloads.
// Example usage:
//
//	scheduler := NewScheduler(reloader, sources)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewReloadSourceTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
