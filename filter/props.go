package filter

import (
	"maskccl/ccl"
	"maskccl/video/frame"
)

// Frame property keys written by GetCCLStats. The sequences are parallel:
// entry i of each belongs to label i, and entry 0 is background.
const (
	PropNumLabels  = "_CCLStatNumLabels"
	PropAreas      = "_CCLStatAreas"
	PropLefts      = "_CCLStatLefts"
	PropTops       = "_CCLStatTops"
	PropWidths     = "_CCLStatWidths"
	PropHeights    = "_CCLStatHeights"
	PropCentroidsX = "_CCLStatCentroids_x"
	PropCentroidsY = "_CCLStatCentroids_y"
)

// SetStatsProps replaces any statistics already present in props.
func SetStatsProps(props frame.Props, stats ccl.Stats) {
	cols := ccl.Export(stats)
	props.SetInt(PropNumLabels, int64(cols.NumLabels))
	props.SetInts(PropAreas, cols.Areas)
	props.SetInts(PropLefts, cols.Lefts)
	props.SetInts(PropTops, cols.Tops)
	props.SetInts(PropWidths, cols.Widths)
	props.SetInts(PropHeights, cols.Heights)
	props.SetFloats(PropCentroidsX, cols.CentroidsX)
	props.SetFloats(PropCentroidsY, cols.CentroidsY)
}

// StatsFromProps decodes the statistics written by SetStatsProps.
func StatsFromProps(props frame.Props) (ccl.Stats, error) {
	n, err := props.Int(PropNumLabels)
	if err != nil {
		return nil, err
	}
	cols := ccl.Columns{NumLabels: int(n)}
	for _, f := range []struct {
		key string
		dst *[]int64
	}{
		{PropAreas, &cols.Areas},
		{PropLefts, &cols.Lefts},
		{PropTops, &cols.Tops},
		{PropWidths, &cols.Widths},
		{PropHeights, &cols.Heights},
	} {
		if *f.dst, err = props.Ints(f.key); err != nil {
			return nil, err
		}
	}
	if cols.CentroidsX, err = props.Floats(PropCentroidsX); err != nil {
		return nil, err
	}
	if cols.CentroidsY, err = props.Floats(PropCentroidsY); err != nil {
		return nil, err
	}
	return cols.Components()
}

// HasStats reports whether props carry component statistics.
func HasStats(props frame.Props) bool {
	_, ok := props[PropNumLabels]
	return ok
}
