package datasync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datasync_refresh_total",
		Help: "Количество полных обновлений коллекций по исходу.",
	}, []string{"outcome"})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datasync_mutations_total",
		Help: "Количество мутаций по сущности и исходу.",
	}, []string{"entity", "outcome"})
)
