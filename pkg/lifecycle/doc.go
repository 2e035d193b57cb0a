// Package lifecycle provides the state machine and worker tracking used by
// long-running host components such as the task scheduler.
//
// # Usage
//
//	manager := lifecycle.NewManager("tasks", logger, lifecycle.EmitterFunc(
//	    func(component string, previous, current lifecycle.State, reason string) {
//	        // report the change
//	    }))
//	_ = manager.TransitionTo(lifecycle.StateStarting, "scheduler created")
//	_ = manager.TransitionTo(lifecycle.StateRunning, "ready")
//
//	manager.AddWorker()
//	go func() {
//	    defer manager.WorkerDone()
//	    // ... work until canceled ...
//	}()
//
//	if manager.CanStop() {
//	    _ = manager.TransitionTo(lifecycle.StateStopping, "Close() called")
//	}
//	manager.Cancel()
//	if err := manager.WaitWithTimeout(lifecycle.ShutdownTimeout); err != nil {
//	    // workers did not exit in time
//	}
//
// # State Machine
//
// Valid state transitions:
//   - Stopped -> Starting
//   - Starting -> Running, Stopping, Crashed
//   - Running -> Stopping, Crashed
//   - Stopping -> Stopped, Crashed
//   - Crashed -> Starting
package lifecycle
