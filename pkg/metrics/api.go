package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics records counters for the order and OTP workflows.
type APIMetrics struct {
	ordersCreated prometheus.Counter
	statusChanges *prometheus.CounterVec
	otpSends      *prometheus.CounterVec
	otpVerifies   *prometheus.CounterVec
}

// NewAPIMetrics registers the API metrics on the provided registerer. A nil
// registerer yields a no-op recorder, which tests rely on.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully created.",
	})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status transitions applied.",
	}, []string{"status"})
	otpSends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "otp_sends_total",
		Help: "OTP send requests by result.",
	}, []string{"result"})
	otpVerifies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "otp_verifies_total",
		Help: "OTP verify attempts by result.",
	}, []string{"result"})
	reg.MustRegister(ordersCreated, statusChanges, otpSends, otpVerifies)
	return &APIMetrics{
		ordersCreated: ordersCreated,
		statusChanges: statusChanges,
		otpSends:      otpSends,
		otpVerifies:   otpVerifies,
	}
}

// IncOrderCreated counts a successful order creation.
func (m *APIMetrics) IncOrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncStatusChange counts an applied order status transition.
func (m *APIMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncOTPSend counts an OTP send request by result.
func (m *APIMetrics) IncOTPSend(result string) {
	if m == nil || m.otpSends == nil {
		return
	}
	m.otpSends.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncOTPVerify counts an OTP verify attempt by result.
func (m *APIMetrics) IncOTPVerify(result string) {
	if m == nil || m.otpVerifies == nil {
		return
	}
	m.otpVerifies.WithLabelValues(normalizeLabel(result)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
