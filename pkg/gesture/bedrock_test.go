package gesture

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverseAPI struct {
	lastInput *bedrockruntime.ConverseInput
	reply     string
	err       error
}

func (f *fakeConverseAPI) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role: types.ConversationRoleAssistant,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: f.reply},
				},
			},
		},
	}, nil
}

func TestBedrockClassify_ReturnsLabel(t *testing.T) {
	api := &fakeConverseAPI{reply: "left"}
	c := newBedrockClassifierWithClient("anthropic.claude-3-haiku-20240307-v1:0", api)

	label, err := c.Classify(context.Background(), Frame{Data: []byte{0xff, 0xd8}, MediaType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "left", label)
}

func TestBedrockClassify_BuildsImageRequest(t *testing.T) {
	api := &fakeConverseAPI{reply: "stop"}
	c := newBedrockClassifierWithClient("model-id", api)

	frame := Frame{Data: []byte{0x89, 0x50, 0x4e, 0x47}, MediaType: "image/png"}
	_, err := c.Classify(context.Background(), frame)
	require.NoError(t, err)

	require.NotNil(t, api.lastInput)
	assert.Equal(t, "model-id", *api.lastInput.ModelId)
	require.Len(t, api.lastInput.Messages, 1)
	require.Len(t, api.lastInput.Messages[0].Content, 2)

	img, ok := api.lastInput.Messages[0].Content[0].(*types.ContentBlockMemberImage)
	require.True(t, ok, "first content block should be the image")
	assert.Equal(t, types.ImageFormatPng, img.Value.Format)

	src, ok := img.Value.Source.(*types.ImageSourceMemberBytes)
	require.True(t, ok)
	assert.Equal(t, frame.Data, src.Value)
}

func TestBedrockClassify_TrimsWhitespace(t *testing.T) {
	api := &fakeConverseAPI{reply: "  up\n"}
	c := newBedrockClassifierWithClient("model-id", api)

	label, err := c.Classify(context.Background(), Frame{Data: []byte{1}, MediaType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "up", label)
}

func TestBedrockClassify_Error(t *testing.T) {
	api := &fakeConverseAPI{err: errors.New("boom")}
	c := newBedrockClassifierWithClient("model-id", api)

	_, err := c.Classify(context.Background(), Frame{Data: []byte{1}, MediaType: "image/jpeg"})
	assert.Error(t, err)
}

func TestBedrockClassify_UnsupportedMediaType(t *testing.T) {
	api := &fakeConverseAPI{reply: "up"}
	c := newBedrockClassifierWithClient("model-id", api)

	_, err := c.Classify(context.Background(), Frame{Data: []byte{1}, MediaType: "video/mp4"})
	assert.Error(t, err)
	assert.Nil(t, api.lastInput, "no request should be made for an unsupported frame")
}
