package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/constants"
)

// Recorder counts notification outcomes
type Recorder interface {
	RecordNotification(success bool)
}

// Dispatcher runs notification attempts detached from the request that
// triggered them. The result of an attempt is logged and then dropped.
type Dispatcher struct {
	notifier Notifier
	log      *logrus.Logger
	timeout  time.Duration
	recorder Recorder
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. recorder may be nil and a non-positive
// timeout falls back to constants.NotificationTimeout.
func NewDispatcher(notifier Notifier, log *logrus.Logger, timeout time.Duration, recorder Recorder) *Dispatcher {
	if timeout <= 0 {
		timeout = constants.NotificationTimeout
	}
	return &Dispatcher{
		notifier: notifier,
		log:      log,
		timeout:  timeout,
		recorder: recorder,
	}
}

// Dispatch starts a delivery attempt and returns immediately
func (d *Dispatcher) Dispatch(a Assignment) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(a)
	}()
}

// Wait blocks until every dispatched attempt has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(a Assignment) {
	entry := d.log.WithFields(logrus.Fields{
		"recipient":  a.RecipientEmail,
		"task_title": a.TaskTitle,
	})

	// Not derived from the request context: the request is usually gone by now.
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var result Result
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = Failed(fmt.Errorf("notifier panic: %v", r))
			}
		}()
		result = d.notifier.NotifyAssigned(ctx, a)
	}()

	if d.recorder != nil {
		d.recorder.RecordNotification(result.Success)
	}

	if result.Success {
		entry.WithField("message_id", result.MessageID).Info("Assignment email sent")
		return
	}
	entry.WithError(result.Err).Warn("Assignment email failed")
}
