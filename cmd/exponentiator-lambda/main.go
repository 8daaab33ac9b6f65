package main

import (
	"context"

	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	h, err := newHandlerFromEnv(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	lambda.Start(h.Handle)
}
