package econnect

import (
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"
)

// Customer attribute keys understood by eConnect.
const (
	AttrPrintColor                      = "printColor"
	AttrPrintMode                       = "printMode"
	AttrPinProcessSilent                = "pinProcessSilent"
	AttrNotificationMailTo              = "notificationMailTo"
	AttrPinManipulateMarginLeft         = "pinManipulateMarginLeft"
	AttrPinManipulateMarginRight        = "pinManipulateMarginRight"
	AttrPinManipulateMarginBottom       = "pinManipulateMarginBottom"
	AttrPinManipulateScalePercentWidth  = "pinManipulateScalePercentWidth"
	AttrPinManipulateScalePercentHeight = "pinManipulateScalePercentHeight"
	AttrPinPrintPresetPaperType         = "pinPrintPresetPaperType"
	AttrPinPrintPresetEnvelope          = "pinPrintPresetEnvelope"
	AttrPinPrintPresetTransferVoucher   = "pinPrintPresetTransferVoucher"
)

const (
	PrintColorColor      = "COLOR"
	PrintColorBlackWhite = "BLACKWHITE"
	PrintModeSimplex     = "SIMPLEX"
	PrintModeDuplex      = "DUPLEX"
	SilentTrue           = "TRUE"
	SilentFalse          = "FALSE"
	TransferVoucherFirst = "FP"
	TransferVoucherLast  = "LP"
)

// CustomerAttributes is a block of print/formatting options sent with a job
// or a document. Keys outside the documented set are passed through as is.
type CustomerAttributes map[string]string

// DefaultCustomerAttributes returns a fresh copy of the documented defaults.
func DefaultCustomerAttributes() CustomerAttributes {
	return CustomerAttributes{
		AttrPrintColor:                      PrintColorColor,
		AttrPrintMode:                       PrintModeSimplex,
		AttrPinProcessSilent:                SilentTrue,
		AttrNotificationMailTo:              "",
		AttrPinManipulateMarginLeft:         "",
		AttrPinManipulateMarginRight:        "",
		AttrPinManipulateMarginBottom:       "",
		AttrPinManipulateScalePercentWidth:  "",
		AttrPinManipulateScalePercentHeight: "",
		AttrPinPrintPresetPaperType:         "",
		AttrPinPrintPresetEnvelope:          "",
		AttrPinPrintPresetTransferVoucher:   "",
	}
}

// MergeCustomerAttributes overlays overrides on the defaults, key by key.
// The input is not modified.
func MergeCustomerAttributes(overrides CustomerAttributes) CustomerAttributes {
	out := DefaultCustomerAttributes()
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Validate checks values against the domains documented by the provider.
// Unknown keys are ignored.
func (a CustomerAttributes) Validate() error {
	var problems []string

	oneOf := func(key string, allowed ...string) {
		v, ok := a[key]
		if !ok {
			return
		}
		for _, al := range allowed {
			if v == al {
				return
			}
		}
		problems = append(problems, fmt.Sprintf("%s=%q not in %v", key, v, allowed))
	}

	oneOf(AttrPrintColor, PrintColorColor, PrintColorBlackWhite)
	oneOf(AttrPrintMode, PrintModeSimplex, PrintModeDuplex)
	oneOf(AttrPinProcessSilent, SilentTrue, SilentFalse)
	oneOf(AttrPinPrintPresetTransferVoucher, "", TransferVoucherFirst, TransferVoucherLast)

	for _, key := range []string{
		AttrPinManipulateMarginLeft,
		AttrPinManipulateMarginRight,
		AttrPinManipulateMarginBottom,
		AttrPinManipulateScalePercentWidth,
		AttrPinManipulateScalePercentHeight,
	} {
		v := strings.TrimSpace(a[key])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			problems = append(problems, fmt.Sprintf("%s=%q is not a number", key, a[key]))
		}
	}

	if list := strings.TrimSpace(a[AttrNotificationMailTo]); list != "" {
		for _, addr := range strings.Split(list, ",") {
			if _, err := mail.ParseAddress(strings.TrimSpace(addr)); err != nil {
				problems = append(problems, fmt.Sprintf("%s: invalid address %q", AttrNotificationMailTo, addr))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid customer attributes: %s", strings.Join(problems, "; "))
}
