package gesture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
)

// gesturePrompt instructs the model to answer with exactly one word from
// the command vocabulary.
const gesturePrompt = "The image shows a person making a hand gesture. " +
	"Answer with exactly one word describing the direction the gesture indicates: " +
	"up, down, left, right, or stop. If no clear gesture is visible, answer none."

// bedrockConverseAPI abstracts the Bedrock runtime method for testability.
type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClassifier implements Classifier via the AWS Bedrock Converse
// API, sending the camera frame as an image content block.
type BedrockClassifier struct {
	model  string
	client bedrockConverseAPI
}

// NewBedrockClassifier creates a classifier using the default AWS
// credential chain.
func NewBedrockClassifier(ctx context.Context, region, model string) (*BedrockClassifier, error) {
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &BedrockClassifier{
		model:  model,
		client: bedrockruntime.NewFromConfig(awsCfg),
	}, nil
}

// newBedrockClassifierWithClient creates a BedrockClassifier with an
// injected client (for testing).
func newBedrockClassifierWithClient(model string, client bedrockConverseAPI) *BedrockClassifier {
	return &BedrockClassifier{model: model, client: client}
}

// Classify sends one frame to the model and returns its free-text reply.
func (c *BedrockClassifier) Classify(ctx context.Context, frame Frame) (string, error) {
	format, err := imageFormat(frame.MediaType)
	if err != nil {
		return "", err
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.model),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberImage{
						Value: types.ImageBlock{
							Format: format,
							Source: &types.ImageSourceMemberBytes{Value: frame.Data},
						},
					},
					&types.ContentBlockMemberText{Value: gesturePrompt},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens: aws.Int32(16),
		},
	}

	output, err := c.client.Converse(ctx, input)
	if err != nil {
		return "", mapBedrockError(err)
	}

	label := extractText(output)
	log.Debug().Str("label", label).Msg("Gesture classified")
	return label, nil
}

// extractText pulls the text content out of a Converse response.
func extractText(output *bedrockruntime.ConverseOutput) string {
	msg, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	var parts []string
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			parts = append(parts, text.Value)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// imageFormat maps a media type to the Bedrock image format enum.
func imageFormat(mediaType string) (types.ImageFormat, error) {
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg", "":
		return types.ImageFormatJpeg, nil
	case "image/png":
		return types.ImageFormatPng, nil
	case "image/gif":
		return types.ImageFormatGif, nil
	case "image/webp":
		return types.ImageFormatWebp, nil
	}
	return "", fmt.Errorf("unsupported frame media type %q", mediaType)
}

// mapBedrockError keeps the common service failures readable in logs and
// status output.
func mapBedrockError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return fmt.Errorf("bedrock throttled: %w", err)
		case "AccessDeniedException", "UnrecognizedClientException":
			return fmt.Errorf("bedrock credentials rejected: %w", err)
		}
	}
	return fmt.Errorf("bedrock converse: %w", err)
}
