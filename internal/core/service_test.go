package core

import (
	"testing"
	"time"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestNewService_Defaults(t *testing.T) {
	s := NewService(nil)

	if s.importTimeout != DefaultImportTimeout {
		t.Errorf("importTimeout = %v, want %v", s.importTimeout, DefaultImportTimeout)
	}
	if _, ok := s.clock.(realClock); !ok {
		t.Errorf("clock = %T, want realClock", s.clock)
	}
	if s.imports == nil {
		t.Error("imports gate is nil")
	}
}

func TestNewService_Options(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		wantTimeout time.Duration
	}{
		{"custom timeout", []Option{WithImportTimeout(30 * time.Second)}, 30 * time.Second},
		{"zero keeps default", []Option{WithImportTimeout(0)}, DefaultImportTimeout},
		{"negative keeps default", []Option{WithImportTimeout(-time.Second)}, DefaultImportTimeout},
		{"last wins", []Option{WithImportTimeout(time.Second), WithImportTimeout(time.Minute)}, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(nil, tt.opts...)
			if s.importTimeout != tt.wantTimeout {
				t.Errorf("importTimeout = %v, want %v", s.importTimeout, tt.wantTimeout)
			}
		})
	}
}

func TestNewService_TimeoutsAreIndependent(t *testing.T) {
	a := NewService(nil, WithImportTimeout(time.Second))
	b := NewService(nil)

	if a.importTimeout == b.importTimeout {
		t.Errorf("services share import timeout %v", a.importTimeout)
	}
}

func TestService_TodayUsesClock(t *testing.T) {
	at := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)
	s := NewService(nil, WithClock(fixedClock{now: at}))

	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := s.today(); !got.Equal(want) {
		t.Errorf("today() = %v, want %v", got, want)
	}
}
