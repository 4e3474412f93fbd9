// Command sportlens serves the sports image analysis API and the video
// forwarding endpoint.
//
// Usage:
//
//	sportlens serve
//	sportlens analyze --image photo.jpg --context "who is serving?"
package main

func main() {
	Execute()
}
