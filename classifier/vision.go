package classifier

import (
	"context"
	"encoding/base64"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/linesmerrill/rider-safety-api/config"
)

// Vision annotates images with the Google Cloud Vision API
type Vision struct {
	client *vision.ImageAnnotatorClient
}

// NewVision creates a Vision client. conf.ServiceKey is a base64 encoded
// service account document; when empty the default credentials are used.
func NewVision(ctx context.Context, conf config.VisionConfig) (*Vision, error) {
	var opts []option.ClientOption
	if conf.ServiceKey != "" {
		keyJSON, err := base64.StdEncoding.DecodeString(conf.ServiceKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode GOOGLE_SERVICE_KEY: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(keyJSON))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &Vision{client: client}, nil
}

// Annotate runs label detection and object localization on imageURL in a single request
func (v *Vision) Annotate(ctx context.Context, imageURL string) ([]string, []string, error) {
	resp, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Source: &visionpb.ImageSource{ImageUri: imageURL}},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_LABEL_DETECTION},
				{Type: visionpb.Feature_OBJECT_LOCALIZATION},
			},
		}},
	})
	if err != nil {
		return nil, nil, err
	}
	if len(resp.GetResponses()) == 0 {
		return nil, nil, fmt.Errorf("vision returned no responses for %s", imageURL)
	}
	return fromResponse(resp.GetResponses()[0])
}

// Close releases the underlying connection
func (v *Vision) Close() error {
	return v.client.Close()
}

func fromResponse(r *visionpb.AnnotateImageResponse) ([]string, []string, error) {
	if st := r.GetError(); st != nil && st.GetCode() != 0 {
		return nil, nil, fmt.Errorf("vision error %d: %s", st.GetCode(), st.GetMessage())
	}
	labels := make([]string, 0, len(r.GetLabelAnnotations()))
	for _, l := range r.GetLabelAnnotations() {
		labels = append(labels, l.GetDescription())
	}
	objects := make([]string, 0, len(r.GetLocalizedObjectAnnotations()))
	for _, o := range r.GetLocalizedObjectAnnotations() {
		objects = append(objects, o.GetName())
	}
	return labels, objects, nil
}
