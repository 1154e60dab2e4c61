package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/shoppulse/backend/internal/domain/integration"
)

// maxExamplesPerTier caps the shipments listed per tier in a report
const maxExamplesPerTier = 5

// staleShipment is one shipment selected for a report
type staleShipment struct {
	ShopName       string
	OrderID        string
	TrackingNumber string
	Provider       string
	ElapsedDays    int
}

// Report is one tenant's stale-shipment report
type Report struct {
	Warnings  []staleShipment
	Criticals []staleShipment
}

// Empty reports whether there is anything worth sending
func (r *Report) Empty() bool {
	return len(r.Warnings) == 0 && len(r.Criticals) == 0
}

// buildReport classifies in-progress shipments by elapsed whole days
func buildReport(states []integration.TrackingState, now time.Time) *Report {
	report := &Report{}
	for i := range states {
		state := &states[i]
		shipment := staleShipment{
			ShopName:       state.ShopName,
			OrderID:        state.OrderID,
			TrackingNumber: state.TrackingNumber,
			Provider:       state.Provider,
			ElapsedDays:    state.ElapsedDays(now),
		}
		switch state.Tier(now) {
		case integration.AlertTierCritical:
			report.Criticals = append(report.Criticals, shipment)
		case integration.AlertTierWarning:
			report.Warnings = append(report.Warnings, shipment)
		}
	}
	return report
}

// Text renders the report as a plain-text notification message
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString("Stale shipment report\n")

	writeTier(&b, fmt.Sprintf("CRITICAL (%d+ days)", integration.CriticalThresholdDays), r.Criticals)
	writeTier(&b, fmt.Sprintf("WARNING (%d-%d days)", integration.WarningThresholdDays, integration.CriticalThresholdDays-1), r.Warnings)

	return strings.TrimRight(b.String(), "\n")
}

// writeTier renders one tier: count, up to maxExamplesPerTier shipments,
// and how many were omitted.
func writeTier(b *strings.Builder, title string, shipments []staleShipment) {
	if len(shipments) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s: %d\n", title, len(shipments))

	shown := shipments
	if len(shown) > maxExamplesPerTier {
		shown = shown[:maxExamplesPerTier]
	}
	for _, s := range shown {
		provider := s.Provider
		if provider == "" {
			provider = "unknown carrier"
		}
		shop := s.ShopName
		if shop == "" {
			shop = "unnamed shop"
		}
		fmt.Fprintf(b, "- %s: order %s / %s (%s, %dd)\n", shop, s.OrderID, s.TrackingNumber, provider, s.ElapsedDays)
	}
	if omitted := len(shipments) - len(shown); omitted > 0 {
		fmt.Fprintf(b, "...and %d more\n", omitted)
	}
}
