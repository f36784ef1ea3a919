// Package qsort is the translated quicksort under test.
package qsort

import "github.com/calvinalkan/diffuzz/pkg/foreign"

// Sorter sorts Go-owned buffers.
type Sorter struct{}

// QuickSort sorts buf[low..high] in place.
func (Sorter) QuickSort(buf foreign.IntBuffer, low, high int32) {
	QuickSort(buf.Values(), low, high)
}

// QuickSort sorts arr[low..high] (inclusive) in place using Lomuto partitioning.
func QuickSort(arr []int32, low, high int32) {
	if low < high {
		pi := partition(arr, low, high)
		QuickSort(arr, low, pi-1)
		QuickSort(arr, pi+1, high)
	}
}

func partition(arr []int32, low, high int32) int32 {
	pivot := arr[high]
	i := low - 1

	for j := low; j <= high-1; j++ {
		if arr[j] < pivot {
			i++
			swap(arr, i, j)
		}
	}

	swap(arr, i+1, high)

	return i + 1
}

func swap(arr []int32, a, b int32) {
	arr[a], arr[b] = arr[b], arr[a]
}
