package replenishment

import (
	"math"
	"sort"

	"github.com/nortetech/wms-api/internal/domain/entity"
)

// SKUFrequency volumen agregado de salidas de un SKU.
type SKUFrequency struct {
	SKU       string
	Frequency int
}

// ABCPartition límites de la partición por rango:
// rank < ALimit → A; rank < BLimit → B; resto → C.
type ABCPartition struct {
	ALimit int // ceil(20% de N)
	BLimit int // ceil(50% de N), acumulado
}

// Partition calcula los cortes A/B para n ítems.
func Partition(n int) ABCPartition {
	return ABCPartition{
		ALimit: int(math.Ceil(float64(n) * 0.2)),
		BLimit: int(math.Ceil(float64(n) * 0.5)),
	}
}

// CategoryForRank devuelve la categoría del ítem en la posición rank
// (0-based) del ranking descendente por frecuencia.
func (p ABCPartition) CategoryForRank(rank int) string {
	switch {
	case rank < p.ALimit:
		return entity.ABCCategoryA
	case rank < p.BLimit:
		return entity.ABCCategoryB
	default:
		return entity.ABCCategoryC
	}
}

// RankByFrequency ordena los SKUs de forma descendente por frecuencia de
// salida. El orden es estable: empates conservan el orden de entrada, de modo
// que los ítems sin movimiento quedan al final en su orden original.
func RankByFrequency(skus []string, freqBySKU map[string]int) []SKUFrequency {
	ranked := make([]SKUFrequency, 0, len(skus))
	for _, sku := range skus {
		ranked = append(ranked, SKUFrequency{SKU: sku, Frequency: freqBySKU[sku]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})
	return ranked
}
