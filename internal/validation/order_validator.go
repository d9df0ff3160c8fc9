package validation

import (
	"regexp"

	"github.com/AlenaMolokova/smmpanel/internal/models"
)

type OrderValidator interface {
	ValidateQuantity(svc models.Service, quantity int) bool
	ValidateLink(link string) bool
}

type SMMOrderValidator struct {
	linkRegex *regexp.Regexp
}

func NewSMMOrderValidator() *SMMOrderValidator {
	return &SMMOrderValidator{
		linkRegex: regexp.MustCompile(`^https?://\S+$|^@[A-Za-z0-9_.]+$`),
	}
}

func (v *SMMOrderValidator) ValidateQuantity(svc models.Service, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	return quantity >= svc.MinQuantity && quantity <= svc.MaxQuantity
}

func (v *SMMOrderValidator) ValidateLink(link string) bool {
	return link != "" && v.linkRegex.MatchString(link)
}
