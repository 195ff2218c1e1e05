package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionRecognizer runs Google Cloud Vision text detection and returns raw
// text. It sits between the structured-JSON cloud strategy and the local
// engine: still cloud-fast, but output goes through the regex rulesets.
type VisionRecognizer struct {
	CredentialsFile string
	Timeout         time.Duration
}

func NewVisionRecognizer(credentialsFile string) *VisionRecognizer {
	return &VisionRecognizer{CredentialsFile: credentialsFile, Timeout: 30 * time.Second}
}

func (v *VisionRecognizer) Name() string { return "cloud-vision" }

func (v *VisionRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()

	var client *vision.ImageAnnotatorClient
	var err error
	if v.CredentialsFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(v.CredentialsFile))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("failed to init Vision client: %w", err)
	}
	defer client.Close()

	img := &visionpb.Image{Content: image}
	anns, err := client.DetectTexts(ctx, img, nil, 1)
	if err != nil {
		return "", fmt.Errorf("vision text detection failed: %w", err)
	}
	if len(anns) == 0 || anns[0].Description == "" {
		return "", errors.New("vision found no text in image")
	}
	return anns[0].Description, nil
}
