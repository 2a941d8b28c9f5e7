/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package soc

import "github.com/prometheus/client_golang/prometheus"

// registerMetrics publishes the device counters on reg. Gauges rather than
// counters: the reset operation zeroes the underlying values, which a
// Prometheus counter may not do.
func (d *Device) registerMetrics(reg *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "heterosoc_ipi_raised",
			Help: "IPIs raised since creation or the last reset.",
		}, func() float64 { return float64(d.ipiCount.Load()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "heterosoc_messages_posted",
			Help: "Mailbox commands posted since creation or the last reset.",
		}, func() float64 { return float64(d.msgCount.Load()) }),
	}
	for ch := Channel(0); ch < channelCount; ch++ {
		ch := ch
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "heterosoc_core_online",
			Help:        "1 when the remote core has processed a command since the last reset.",
			ConstLabels: prometheus.Labels{"channel": ch.String()},
		}, func() float64 {
			if d.statsFor(ch).online.Load() {
				return 1
			}
			return 0
		}))
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
