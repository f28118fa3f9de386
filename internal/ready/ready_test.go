package ready

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"
)

func TestAwait_Value(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ch := make(chan int, 1)
		go func() {
			time.Sleep(100 * time.Millisecond)
			ch <- 42
		}()

		got, err := Await(context.Background(), time.Second, ch)
		if err != nil {
			t.Fatalf("Await() error = %v", err)
		}
		if got != 42 {
			t.Errorf("Await() = %d, want 42", got)
		}
	})
}

func TestAwait_Timeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ch := make(chan string)
		start := time.Now()

		_, err := Await(context.Background(), 3*time.Second, ch)
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("Await() error = %v, want ErrTimeout", err)
		}
		if elapsed := time.Since(start); elapsed != 3*time.Second {
			t.Errorf("elapsed = %v, want 3s", elapsed)
		}
	})
}

func TestAwait_Cancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan int)

		time.AfterFunc(time.Second, cancel)
		_, err := Await(ctx, time.Minute, ch)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Await() error = %v, want context.Canceled", err)
		}
	})
}

func TestAwait_ClosedChannel(t *testing.T) {
	ch := make(chan int)
	close(ch)

	got, err := Await(context.Background(), time.Second, ch)
	if err != nil || got != 0 {
		t.Errorf("Await() = %d, %v, want 0, nil", got, err)
	}
}

func TestGo(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ch := Go(func() string {
			time.Sleep(time.Second)
			return "library"
		})

		got, err := Await(context.Background(), 2*time.Second, ch)
		if err != nil || got != "library" {
			t.Errorf("Await(Go()) = %q, %v, want library, nil", got, err)
		}
	})
}
