// Package shutdown turns termination signals into context cancellation and
// runs cleanup hooks within a deadline.
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	go srv.ListenAndServe(h.Context())
//	err := h.Wait()
package shutdown
