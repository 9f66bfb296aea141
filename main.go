package main

import "github.com/Abdullah-Ro45/PulseCare-Vita1/cmd/pulsecare"

func main() {
	pulsecare.Execute()
}
