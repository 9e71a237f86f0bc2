package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsRecording(t *testing.T) {
	Convey("Given a metrics set on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := New(WithRegistry(reg))

		Convey("When frames and commands are recorded", func() {
			m.FrameProcessed(SourceWebSocket, 200*time.Microsecond)
			m.FrameProcessed(SourceWebSocket, 300*time.Microsecond)
			m.FrameProcessed(SourceCamera, time.Millisecond)
			m.CommandRecognized("stop")

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(m.framesProcessed.WithLabelValues(SourceWebSocket)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.framesProcessed.WithLabelValues(SourceCamera)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.commandsRecognized.WithLabelValues("stop")), ShouldEqual, 1)
			})
		})

		Convey("When sessions open and close", func() {
			m.SessionOpened()
			m.SessionOpened()
			m.SessionClosed()

			Convey("Then the gauge tracks open sessions", func() {
				So(testutil.ToFloat64(m.sessionsActive), ShouldEqual, 1)
			})
		})

		Convey("When plugins run", func() {
			m.PluginExecuted("robot-drive", nil)
			m.PluginExecuted("robot-drive", errors.New("timeout"))
			m.DispatchDropped()
			m.Transition("suspended")

			Convey("Then results are labelled", func() {
				So(testutil.ToFloat64(m.pluginExecutions.WithLabelValues("robot-drive", "ok")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.pluginExecutions.WithLabelValues("robot-drive", "error")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.dispatchDropped), ShouldEqual, 1)
				So(testutil.ToFloat64(m.transitions.WithLabelValues("suspended")), ShouldEqual, 1)
			})
		})

		Convey("When the handler is scraped", func() {
			m.CommandRecognized("advance")
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
			body, _ := io.ReadAll(rec.Body)

			Convey("Then the exposition contains robohand metrics", func() {
				So(rec.Code, ShouldEqual, 200)
				So(strings.Contains(string(body), `robohand_commands_recognized_total{command="advance"} 1`), ShouldBeTrue)
				So(m.Registry(), ShouldEqual, reg)
			})
		})
	})
}

func TestNilMetrics(t *testing.T) {
	Convey("Given a nil metrics set", t, func() {
		var m *Metrics

		Convey("Then recording is a no-op", func() {
			So(func() {
				m.FrameProcessed(SourceCamera, time.Millisecond)
				m.CommandRecognized("stop")
				m.Transition("changed")
				m.SessionOpened()
				m.SessionClosed()
				m.PluginExecuted("x", nil)
				m.DispatchDropped()
			}, ShouldNotPanic)
			So(m.Registry(), ShouldBeNil)
		})
	})
}
