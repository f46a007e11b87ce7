package content

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type fakeRefs struct {
	n   int
	err error
}

func (f *fakeRefs) Reference(file File) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.n++
	return fmt.Sprintf("/blobs/test-%d", f.n), nil
}

type failingDeliverer struct{}

func (failingDeliverer) Deliver(context.Context, ContactDraft) error {
	return errors.New("smtp unreachable")
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
