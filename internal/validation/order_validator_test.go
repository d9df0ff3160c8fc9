package validation

import (
	"testing"

	"github.com/AlenaMolokova/smmpanel/internal/models"
)

func TestValidateQuantity(t *testing.T) {
	v := NewSMMOrderValidator()
	svc := models.Service{MinQuantity: 100, MaxQuantity: 10000}

	tests := []struct {
		name     string
		quantity int
		valid    bool
	}{
		{"at minimum", 100, true},
		{"at maximum", 10000, true},
		{"in between", 500, true},
		{"below minimum", 99, false},
		{"above maximum", 10001, false},
		{"zero", 0, false},
		{"negative", -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.ValidateQuantity(svc, tt.quantity); got != tt.valid {
				t.Errorf("ValidateQuantity(%d) = %v, want %v", tt.quantity, got, tt.valid)
			}
		})
	}
}

func TestValidateLink(t *testing.T) {
	v := NewSMMOrderValidator()

	tests := []struct {
		link  string
		valid bool
	}{
		{"https://instagram.com/someprofile", true},
		{"http://t.me/channel", true},
		{"@username", true},
		{"", false},
		{"not a link", false},
		{"ftp://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := v.ValidateLink(tt.link); got != tt.valid {
				t.Errorf("ValidateLink(%q) = %v, want %v", tt.link, got, tt.valid)
			}
		})
	}
}
