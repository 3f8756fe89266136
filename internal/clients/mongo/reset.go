package mongo

// reset clears the singleton state without disconnecting (helper for tests).
func reset() {
	mu.Lock()
	defer mu.Unlock()
	client = nil
	db = nil
	initErr = nil
}
