package detection

// Point is a pixel position in the working image.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// minBlobPixels drops specks before any other filter runs.
const minBlobPixels = 10

// findContours groups set mask pixels into 8-connected blobs.
//
// Blobs smaller than minBlobPixels are discarded as noise. Blobs are returned
// in scan order of their first pixel (top to bottom, left to right).
func findContours(mask [][]bool, width, height int) [][]Point {
	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	blobs := make([][]Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y][x] && !visited[y][x] {
				blob := make([]Point, 0)
				floodFill(mask, visited, x, y, width, height, &blob)
				if len(blob) >= minBlobPixels {
					blobs = append(blobs, blob)
				}
			}
		}
	}
	return blobs
}

// floodFill collects the blob containing (startX, startY).
// It uses an explicit stack so large blobs cannot overflow the goroutine stack.
func floodFill(mask, visited [][]bool, startX, startY, width, height int, blob *[]Point) {
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !mask[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		*blob = append(*blob, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
				}
			}
		}
	}
}
