package discord

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/MapBot_Go/internal/domain"
)

var printer = message.NewPrinter(language.Polish)

// formatNumber groups digits the Polish way
func formatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// formatSigned always shows the sign, for transaction amounts
func formatSigned(n int) string {
	if n > 0 {
		return "+" + formatNumber(n)
	}
	return formatNumber(n)
}

// timestamp renders a Discord timestamp tag in the given style (f, R, ...)
func timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// reasonLabel translates the reasons recorded by the core
func reasonLabel(reason string) string {
	switch reason {
	case domain.ReasonSegmentPurchase:
		return MsgReasonPurchase
	case domain.ReasonBulkSegmentPurchase:
		return MsgReasonBulkPurchase
	case domain.ReasonAdminAdjustment:
		return MsgReasonAdmin
	default:
		return reason
	}
}

// mapProgress is the /mapa description
func mapProgress(owned, total int, self bool, memberID int64) string {
	var msg string
	if self {
		msg = fmt.Sprintf(MsgMapProgressFmt, owned, total)
	} else {
		msg = fmt.Sprintf(MsgMapProgressOtherFmt, memberID, owned, total)
	}
	if owned == total {
		msg += MsgMapCongratulations
	}
	return msg
}

func encodeExpiry(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 36)
}

func decodeExpiry(s string) (time.Time, error) {
	v, err := strconv.ParseInt(s, 36, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0), nil
}
