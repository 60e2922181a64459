package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/derating"
)

const usage = "Commands:\n" +
	"/cable I L METHOD [PHASES] - size a cable, e.g. /cable 32 20 C\n" +
	"/derate RATING AMBIENT GROUPED [METHOD] - derate a cable, e.g. /derate 37 40 3 C"

type premiumSetter interface {
	SetPremiumUntil(ctx context.Context, userID int, until time.Time) error
}

// bot answers chat commands; only the admin chat may grant premium.
type bot struct {
	adminID int64
	repo    premiumSetter
}

func (b *bot) reply(ctx context.Context, chatID int64, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return usage
	}
	cmd, args := fields[0], fields[1:]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	switch cmd {
	case "/cable":
		return cableReply(args)
	case "/derate":
		return derateReply(args)
	case "/premium":
		if chatID != b.adminID {
			return "Not allowed"
		}
		return b.premiumReply(ctx, args)
	default:
		return usage
	}
}

func cableReply(args []string) string {
	if len(args) < 3 || len(args) > 4 {
		return "Usage: /cable I L METHOD [PHASES]"
	}
	nums, err := floats(args[:2])
	if err != nil {
		return err.Error()
	}
	in := cable.Input{DesignCurrent: nums[0], Length: nums[1], InstallationMethod: cable.Method(strings.ToUpper(args[2])), Phases: 1}
	if len(args) == 4 {
		if in.Phases, err = strconv.Atoi(args[3]); err != nil {
			return fmt.Sprintf("phases: %q is not a number", args[3])
		}
	}
	res, err := cable.Calculate(in)
	if err != nil {
		return err.Error()
	}
	status := "OK"
	if res.BoundsExceeded {
		status = "NOT COMPLIANT, largest standard size shown"
	}
	device := "none coordinates"
	if res.ProtectionRequired > 0 {
		device = fmt.Sprintf("%.0f A", res.ProtectionRequired)
	}
	return fmt.Sprintf("%g mm² (It %.0f A), drop %.2f%%, device %s: %s",
		res.RecommendedSize, res.CurrentCarryingCapacity, res.VoltageDrop, device, status)
}

func derateReply(args []string) string {
	if len(args) < 3 || len(args) > 4 {
		return "Usage: /derate RATING AMBIENT GROUPED [METHOD]"
	}
	nums, err := floats(args[:2])
	if err != nil {
		return err.Error()
	}
	grouped, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Sprintf("grouped: %q is not a number", args[2])
	}
	method := cable.MethodC
	if len(args) == 4 {
		method = cable.Method(strings.ToUpper(args[3]))
	}
	res, err := derating.Calculate(derating.Input{
		InstallationMethod: method,
		AmbientTemperature: nums[1],
		GroupedCircuits:    grouped,
		TotalLength:        1,
		OriginalRating:     nums[0],
	})
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Cg %.2f × Ca %.2f = %.3f, derated %.1f A",
		res.GroupingFactor, res.AmbientTempFactor, res.OverallDerating, res.DeratedCurrent)
}

func (b *bot) premiumReply(ctx context.Context, args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return "Usage: /premium USER_ID [DAYS]"
	}
	userID, err := strconv.Atoi(args[0])
	if err != nil || userID <= 0 {
		return "Bad user id"
	}
	days := 30
	if len(args) == 2 {
		if days, err = strconv.Atoi(args[1]); err != nil || days <= 0 {
			return "Bad number of days"
		}
	}
	until := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	if err := b.repo.SetPremiumUntil(ctx, userID, until); err != nil {
		return fmt.Sprintf("Failed: %v", err)
	}
	return fmt.Sprintf("✅ Premium for user #%d until %s", userID, until.Format("2006-01-02"))
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.ReplaceAll(a, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = v
	}
	return out, nil
}
