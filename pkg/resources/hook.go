package resources

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	otelog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

// ZerologHook mirrors every zerolog record into the OTel logs
// pipeline. Stdout output is untouched; the hook only adds an export.
type ZerologHook struct {
	logger otelog.Logger
}

func NewZerologHook(serviceName string) *ZerologHook {
	return &ZerologHook{logger: global.GetLoggerProvider().Logger(serviceName)}
}

func (h *ZerologHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	fields, ok := eventFields(e)
	if !ok {
		return
	}

	var rec otelog.Record

	sev, sevText := severity(level)

	rec.SetTimestamp(timestamp(fields))
	rec.SetSeverity(sev)
	rec.SetSeverityText(sevText)
	rec.SetBody(otelog.StringValue(msg))

	for k, v := range fields {
		switch x := v.(type) {
		case string:
			rec.AddAttributes(otelog.String(k, x))
		case bool:
			rec.AddAttributes(otelog.Bool(k, x))
		case float64: // json numbers
			if x == float64(int64(x)) {
				rec.AddAttributes(otelog.Int64(k, int64(x)))
			} else {
				rec.AddAttributes(otelog.Float64(k, x))
			}
		default:
			rec.AddAttributes(otelog.String(k, fmt.Sprintf("%v", x)))
		}
	}

	h.logger.Emit(e.GetCtx(), rec)
}

func severity(level zerolog.Level) (otelog.Severity, string) {
	switch level {
	case zerolog.TraceLevel:
		return otelog.SeverityTrace, "TRACE"
	case zerolog.DebugLevel:
		return otelog.SeverityDebug, "DEBUG"
	case zerolog.InfoLevel:
		return otelog.SeverityInfo, "INFO"
	case zerolog.WarnLevel:
		return otelog.SeverityWarn, "WARN"
	case zerolog.ErrorLevel:
		return otelog.SeverityError, "ERROR"
	case zerolog.FatalLevel:
		return otelog.SeverityFatal, "FATAL"
	case zerolog.PanicLevel:
		return otelog.SeverityFatal4, "FATAL"
	default:
		return otelog.SeverityInfo, "INFO"
	}
}

// eventFields digs the pending JSON buffer out of the zerolog event.
// zerolog does not expose it, so reflection it is.
func eventFields(e *zerolog.Event) (map[string]any, bool) {
	if e == nil {
		return nil, false
	}

	v := reflect.ValueOf(e)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, false
	}

	f := v.Elem().FieldByName("buf")
	if !f.IsValid() || f.Kind() != reflect.Slice || f.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}

	b := append([]byte(nil), f.Bytes()...)
	if len(b) == 0 {
		return nil, false
	}

	if b[len(b)-1] != '}' {
		b = append(b, '}')
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, false
	}

	return m, true
}

func timestamp(fields map[string]any) time.Time {
	s, ok := fields["time"].(string)
	if !ok {
		return time.Now()
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}

	return time.Now()
}
