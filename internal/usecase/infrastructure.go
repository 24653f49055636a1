package usecase

import "context"

type EmbedderInfra interface {
	EncodeText(ctx context.Context, text string) ([]float32, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
