package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/rebeccawang123/twincity/internal/logging"
)

var (
	R2Client        *s3.Client
	R2BucketName    string
	R2Endpoint      string
	R2PublicBaseURL string
)

// InitR2 initializes the R2 client used for agent profile documents.
// The identity registry's register(agentURI) call takes a URI; profiles
// uploaded here are what that URI points at.
func InitR2(accessKey, secretKey, accountID, bucketName, region, publicBaseURL string) error {
	if accessKey == "" || secretKey == "" || accountID == "" || bucketName == "" {
		return errors.New("R2 credentials not configured")
	}
	R2BucketName = bucketName
	R2Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	R2PublicBaseURL = publicBaseURL

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	R2Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(R2Endpoint)
		o.UsePathStyle = true
	})

	logging.L.Info("Successfully initialized R2 client")

	return nil
}

// UploadAgentProfile stores an agent profile JSON document under
// agents/<address>.json and returns its public URL for use as the on-chain
// agentURI.
func UploadAgentProfile(ctx context.Context, address string, profile []byte) (string, error) {
	if R2Client == nil {
		return "", errors.New("R2 client not initialized")
	}
	key := fmt.Sprintf("agents/%s.json", address)
	_, err := R2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(R2BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(profile),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}
	if R2PublicBaseURL == "" {
		// Private bucket: hand out a long-lived presigned link instead.
		return PresignProfileURL(ctx, address, 7*24*time.Hour)
	}
	return fmt.Sprintf("%s/%s", R2PublicBaseURL, key), nil
}

// PresignProfileURL creates a presigned GET URL for a stored agent profile,
// for buckets without a public base URL.
func PresignProfileURL(ctx context.Context, address string, expires time.Duration) (string, error) {
	if R2Client == nil {
		return "", errors.New("R2 client not initialized")
	}
	key := fmt.Sprintf("agents/%s.json", address)
	presigner := s3.NewPresignClient(R2Client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(R2BucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// ProfileExists checks if a profile document was already uploaded for an
// address. Returns false with no error when the object is simply absent.
func ProfileExists(ctx context.Context, address string) (bool, error) {
	if R2Client == nil {
		return false, errors.New("R2 client not initialized")
	}
	key := fmt.Sprintf("agents/%s.json", address)
	_, err := R2Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(R2BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if ok := errors.As(err, &nsk); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
