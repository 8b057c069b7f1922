package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/exvulsec/rugscope/cmd"
)

func main() {
	defer func() {
		if panicResp := recover(); panicResp != nil {
			logrus.Errorf("rugscope panicked: %v", panicResp)
			os.Exit(2)
		}
	}()
	cmd.Execute()
}
