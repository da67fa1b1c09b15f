package routingalgorithm

type PriorityQueueNode struct {
	Rank float64
	Item int32
}

// MinHeap binary heap keyed by node index, with decrease-key through a position map.
type MinHeap struct {
	heap []PriorityQueueNode
	pos  map[int32]int
}

func NewMinHeap() *MinHeap {
	return &MinHeap{
		heap: make([]PriorityQueueNode, 0),
		pos:  make(map[int32]int),
	}
}

func parent(i int) int     { return (i - 1) / 2 }
func leftChild(i int) int  { return 2*i + 1 }
func rightChild(i int) int { return 2*i + 2 }

// less orders by rank, then by node index so pops are deterministic.
func (h *MinHeap) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].Item < h.heap[j].Item
}

func (h *MinHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}

func (h *MinHeap) heapifyUp(index int) {
	for index != 0 && h.less(index, parent(index)) {
		h.swap(index, parent(index))
		index = parent(index)
	}
}

func (h *MinHeap) heapifyDown(index int) {
	for {
		smallest := index
		left, right := leftChild(index), rightChild(index)
		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap) Size() int {
	return len(h.heap)
}

func (h *MinHeap) Insert(n PriorityQueueNode) {
	h.heap = append(h.heap, n)
	index := len(h.heap) - 1
	h.pos[n.Item] = index
	h.heapifyUp(index)
}

// ExtractMin pops the root. Callers check Size first.
func (h *MinHeap) ExtractMin() PriorityQueueNode {
	root := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	h.pos[root.Item] = -1
	if last > 0 {
		h.heapifyDown(0)
	}
	return root
}

// DecreaseKey lowers the rank of an item still in the heap. Returns false otherwise.
func (h *MinHeap) DecreaseKey(n PriorityQueueNode) bool {
	i, ok := h.pos[n.Item]
	if !ok || i < 0 || n.Rank > h.heap[i].Rank {
		return false
	}
	h.heap[i].Rank = n.Rank
	h.heapifyUp(i)
	return true
}

// Peek returns the root without removing it.
func (h *MinHeap) Peek() (PriorityQueueNode, bool) {
	if len(h.heap) == 0 {
		return PriorityQueueNode{}, false
	}
	return h.heap[0], true
}
