package concurrent

// CategoryJobItem one nearest facility search: from Source to any of Targets.
type CategoryJobItem struct {
	Label   string
	Source  int32
	Targets []int32
}

// RegionJobItem one named location for batch ranking.
type RegionJobItem struct {
	Name string
	Lat  float64
	Lon  float64
}

type JobI interface {
	CategoryJobItem | RegionJobItem
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
