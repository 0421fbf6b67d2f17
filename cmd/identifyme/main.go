package main

import "github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/cli"

func main() {
	cli.Execute()
}
