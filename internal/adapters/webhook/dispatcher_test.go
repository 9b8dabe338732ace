package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	webhook "github.com/okian/herald/internal/adapters/webhook"
	"github.com/okian/herald/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// fastPolicy keeps tests quick while preserving the retry shape.
func fastPolicy(maxAttempts int) webhook.Policy {
	return webhook.Policy{
		Initial:     time.Millisecond,
		Multiplier:  1.5,
		Increment:   time.Millisecond,
		MaxAttempts: maxAttempts,
	}
}

func TestDispatcherSend(t *testing.T) {
	Convey("Given a healthy webhook endpoint", t, func() {
		var got webhook.Message
		var contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		d := webhook.New(srv.URL,
			webhook.WithPolicy(fastPolicy(3)),
			webhook.WithSuccessPause(0),
		)

		Convey("When a message with an embed is sent", func() {
			msg := webhook.Message{Embeds: []webhook.Embed{{
				Title:       "ada scored +10 on alpha",
				URL:         "https://contest.example/contest/1/submission/7",
				Description: "details",
				Timestamp:   "2026-08-24T10:00:00Z",
			}}}
			err := d.Send(context.Background(), msg)

			Convey("Then it is delivered as JSON", func() {
				So(err, ShouldBeNil)
				So(contentType, ShouldEqual, "application/json")
				So(got.Embeds, ShouldHaveLength, 1)
				So(got.Embeds[0].Title, ShouldEqual, "ada scored +10 on alpha")
				So(got.Embeds[0].URL, ShouldEqual, "https://contest.example/contest/1/submission/7")
			})
		})
	})

	Convey("Given an endpoint that fails before recovering", t, func() {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		d := webhook.New(srv.URL,
			webhook.WithPolicy(fastPolicy(10)),
			webhook.WithSuccessPause(0),
		)

		Convey("When a message is sent", func() {
			err := d.Send(context.Background(), webhook.Message{Content: "hi"})

			Convey("Then it retries until the endpoint recovers", func() {
				So(err, ShouldBeNil)
				So(calls.Load(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an endpoint that never recovers", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		d := webhook.New(srv.URL,
			webhook.WithPolicy(fastPolicy(2)),
			webhook.WithSuccessPause(0),
		)

		Convey("When attempts are bounded", func() {
			err := d.Send(context.Background(), webhook.Message{Content: "hi"})

			Convey("Then delivery fails after the attempt budget", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, webhook.ErrDeliveryFailed)
			})
		})

		Convey("When the context is canceled mid-retry", func() {
			slow := webhook.Policy{Initial: time.Minute, Multiplier: 1.5, Increment: time.Second}
			d := webhook.New(srv.URL, webhook.WithPolicy(slow), webhook.WithSuccessPause(0))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := d.Send(ctx, webhook.Message{Content: "hi"})

			Convey("Then the send returns promptly with a cancellation error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestPolicyNext(t *testing.T) {
	Convey("Given the default retry policy", t, func() {
		p := webhook.DefaultPolicy()

		Convey("Then the backoff grows as previous times 1.5 plus a second", func() {
			b := p.Initial
			So(b, ShouldEqual, 1*time.Second)
			b = p.Next(b)
			So(b, ShouldEqual, 2500*time.Millisecond)
			b = p.Next(b)
			So(b, ShouldEqual, 4750*time.Millisecond)
			b = p.Next(b)
			So(b, ShouldEqual, 8125*time.Millisecond)
		})

		Convey("And it is unbounded by default", func() {
			So(p.MaxAttempts, ShouldEqual, 0)
			So(p.MaxBackoff, ShouldEqual, 0)
		})
	})

	Convey("Given a capped policy", t, func() {
		p := webhook.DefaultPolicy()
		p.MaxBackoff = 3 * time.Second

		Convey("Then the backoff never exceeds the cap", func() {
			So(p.Next(time.Second), ShouldEqual, 2500*time.Millisecond)
			So(p.Next(2500*time.Millisecond), ShouldEqual, 3*time.Second)
			So(p.Next(time.Minute), ShouldEqual, 3*time.Second)
		})
	})
}
