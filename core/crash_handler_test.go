package core

import (
	"testing"
	"time"
)

func TestGoRunsFunction(t *testing.T) {
	done := make(chan int, 1)
	Go(func() { done <- 42 })

	select {
	case v := <-done:
		if v != 42 {
			t.Errorf("Expected 42, got %d", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Goroutine did not run")
	}
}

func TestHandleCrashIgnoresNil(t *testing.T) {
	called := false
	SetCrashFinalizer(func() { called = true })
	defer SetCrashFinalizer(nil)

	HandleCrash(nil)
	if called {
		t.Error("Expected finalizer not to run without a panic")
	}
}
