package notify

import (
	"context"
	"encoding/json"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
)

// SQSAPI is the subset of the SQS client used here.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Queue hands delivery requests to a downstream mailer through SQS.
type Queue struct {
	sqs      SQSAPI
	queueURL string
}

func NewQueue(client SQSAPI, queueURL string) *Queue {
	return &Queue{sqs: client, queueURL: queueURL}
}

// NewQueueFromEnv loads the default AWS credential chain for region.
func NewQueueFromEnv(ctx context.Context, region, queueURL string) (*Queue, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewQueue(sqs.NewFromConfig(cfg), queueURL), nil
}

type otpMessage struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	OTPID string `json:"otp_id"`
}

func (n *Queue) Send(ctx context.Context, email, code string, otpID uuid.UUID) error {
	body, err := json.Marshal(otpMessage{Email: email, Code: code, OTPID: otpID.String()})
	if err != nil {
		return err
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(n.queueURL),
		MessageBody: sdkaws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"type": {
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String("otp"),
			},
			"otp_id": {
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(otpID.String()),
			},
		},
	}

	if _, err := n.sqs.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
