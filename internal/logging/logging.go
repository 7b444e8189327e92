// Package logging builds the process logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger at the given level. An unknown level falls back
// to info and is reported once.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.AddHook(NewMaskHook("email"))

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		l.WithField("level", level).Warn("unknown log level, using info")
		return l
	}
	l.SetLevel(lvl)
	return l
}

// MaskHook masks the values of sensitive fields before an entry is written.
type MaskHook struct {
	fields map[string]struct{}
}

// NewMaskHook masks the named fields.
func NewMaskHook(fields ...string) *MaskHook {
	h := &MaskHook{fields: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		h.fields[f] = struct{}{}
	}
	return h
}

func (h *MaskHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *MaskHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		if _, ok := h.fields[key]; !ok {
			continue
		}
		if s, ok := value.(string); ok {
			entry.Data[key] = Mask(s)
		}
	}
	return nil
}

// Mask keeps the first character and, for emails, the domain.
// "alice@example.com" becomes "a****@example.com".
func Mask(s string) string {
	if s == "" {
		return s
	}
	local, domain, isEmail := strings.Cut(s, "@")
	if !isEmail {
		local, domain = s, ""
	}
	runes := []rune(local)
	if len(runes) == 0 {
		return "*@" + domain
	}
	masked := string(runes[:1]) + strings.Repeat("*", max(len(runes)-1, 1))
	if isEmail {
		return masked + "@" + domain
	}
	return masked
}
