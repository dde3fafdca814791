package main

import "fmt"

// readings simulates a feed with a dropped packet (nil entry).
var readings = []*Reading{
	{Label: "a", Value: 23.4},
	{Label: "b", Value: 25.1},
	nil,
	{Label: "c", Value: 22.8},
}

func main() {
	values := process(readings)
	fmt.Printf("processed %d readings: %v\n", len(values), values)
}
