package main

import (
	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"slash-framework/internal/config"
	"slash-framework/internal/lambda"
)

func main() {
	h := lambda.New(config.NewLogger())
	awslambda.Start(func(event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return h.Handle(event), nil
	})
}
