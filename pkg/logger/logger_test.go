package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWith(&bytes.Buffer{}, "xml")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing JSON into a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, "json"), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "refresh complete", String("cycle", "abc"), Int("regions", 51))

			Convey("Then the fields and caller are encoded", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"msg":"refresh complete"`)
				So(out, ShouldContainSubstring, `"cycle":"abc"`)
				So(out, ShouldContainSubstring, `"regions":51`)
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging through a named logger with fixed fields", func() {
			Named("service").With(String("source_url", "http://x")).Warn(ctx, "fetch failed", Error(errors.New("boom")))

			Convey("Then the component and fixed fields are present", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"component":"service"`)
				So(out, ShouldContainSubstring, `"source_url":"http://x"`)
				So(out, ShouldContainSubstring, `"error":"boom"`)
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "hidden")

			Convey("Then info records are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		for _, lvl := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()

		Convey("Then every level and derived logger is safe to use", func() {
			ctx := context.Background()
			So(func() {
				l.Debug(ctx, "d")
				l.Info(ctx, "i")
				l.Warn(ctx, "w")
				l.Error(ctx, "e", Error(errors.New("boom")))
				l.Named("x").With(String("k", "v")).Info(ctx, "derived")
			}, ShouldNotPanic)
		})
	})
}
