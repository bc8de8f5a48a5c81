// Package replenishment contiene la lógica pura de reposición: punto de
// reorden dinámico (ROP) y partición ABC. Servicios de dominio sin estado,
// sin dependencias de persistencia.
package replenishment

import "math"

// UsageWindowDays ventana de consumo para el cálculo del ADU.
// El divisor es fijo (30), no el número de días con actividad.
const UsageWindowDays = 30

// AverageDailyUsage devuelve el uso diario medio a partir del total de
// salidas de los últimos UsageWindowDays días.
func AverageDailyUsage(totalOutbound int) float64 {
	return float64(totalOutbound) / float64(UsageWindowDays)
}

// ReorderPoint calcula el punto de reorden:
// ROP = ceil(ADU × leadTime + safetyStock).
func ReorderPoint(adu float64, leadTimeDays, safetyStock int) int {
	return int(math.Ceil(adu*float64(leadTimeDays) + float64(safetyStock)))
}
