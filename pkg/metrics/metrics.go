package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SalesMetrics struct {
	SalesProcessed  *prometheus.CounterVec
	StockRejections prometheus.Counter
	SaleAmount      prometheus.Histogram
}

func NewSalesMetrics(service string) *SalesMetrics {
	salesProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "saaspos",
		Subsystem: service,
		Name:      "sales_processed_total",
		Help:      "Total number of processed sales by channel and status.",
	}, []string{"channel", "status"})
	stockRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "saaspos",
		Subsystem: service,
		Name:      "stock_rejections_total",
		Help:      "Submissions rejected because authoritative stock was insufficient.",
	})
	saleAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "saaspos",
		Subsystem: service,
		Name:      "sale_amount",
		Help:      "Distribution of completed sale totals.",
		Buckets:   []float64{1000, 5000, 10000, 25000, 50000, 100000, 250000, 500000},
	})

	prometheus.MustRegister(salesProcessed, stockRejections, saleAmount)
	return &SalesMetrics{
		SalesProcessed:  salesProcessed,
		StockRejections: stockRejections,
		SaleAmount:      saleAmount,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
