package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const fifoSuffix = ".fifo"

// loadAWSConfig resolves region and credentials. Static keys win over the
// default provider chain when both are set.
func loadAWSConfig(ctx context.Context, region string, creds AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// isFIFO reports whether a queue URL or topic ARN names a FIFO resource.
// FIFO sinks dedupe on the event key and order per area.
func isFIFO(target string) bool {
	return strings.HasSuffix(target, fifoSuffix)
}

// fifoFields returns the group and dedupe ids for a FIFO send, or nils.
func fifoFields(target string, evt Event) (group, dedupe *string) {
	if !isFIFO(target) {
		return nil, nil
	}
	return aws.String(evt.AreaID), aws.String(evt.dedupeKey())
}

// awsDataType picks the SQS/SNS attribute type for an event attribute.
func awsDataType(name string) *string {
	if name == "store_id" {
		return aws.String("Number")
	}
	return aws.String("String")
}
