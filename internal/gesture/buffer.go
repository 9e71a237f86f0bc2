package gesture

// DefaultBufferCapacity is the number of recent points kept for motion detection.
const DefaultBufferCapacity = 40

// PathPoint represents one observed position of a tracked landmark.
type PathPoint struct {
	X         float64 // X coordinate
	Y         float64 // Y coordinate
	Timestamp int64   // Timestamp in milliseconds
}

// Buffer is a bounded FIFO of path points. Pushing past capacity evicts the
// oldest point.
type Buffer struct {
	points []PathPoint
	cap    int
}

// NewBuffer creates a buffer. A non-positive capacity uses DefaultBufferCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Buffer{
		points: make([]PathPoint, 0, capacity),
		cap:    capacity,
	}
}

// Push appends p, dropping the oldest point when full.
func (b *Buffer) Push(p PathPoint) {
	if len(b.points) >= b.cap {
		copy(b.points, b.points[1:])
		b.points = b.points[:b.cap-1]
	}
	b.points = append(b.points, p)
}

// Points returns a copy of the buffered points, oldest first.
func (b *Buffer) Points() []PathPoint {
	out := make([]PathPoint, len(b.points))
	copy(out, b.points)
	return out
}

// Len returns the number of buffered points.
func (b *Buffer) Len() int { return len(b.points) }

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int { return b.cap }

// Clear empties the buffer.
func (b *Buffer) Clear() { b.points = b.points[:0] }
