package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/android/dump", "/home/android/dump"},
		{"/home/android/dump/", "/home/android/dump"},
		{"'/home/android/dump' ", "/home/android/dump"},
		{"'/home/android/dump/'\n", "/home/android/dump"},
		{"\"/srv/dump\"\r\n", "/srv/dump"},
		{"mm-qcamera-daemon \n", "mm-qcamera-daemon"},
		{"/", "/"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanInput(tt.in))
		})
	}
}
