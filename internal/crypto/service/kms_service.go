package service

import (
	"context"
	"fmt"
	"strings"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/lumenpass/lumenpass/internal/crypto/domain"
)

// KMSService opens the keepers that wrap the key file at rest.
type KMSService interface {
	// OpenKeeper opens the keeper named by keyURI, e.g. base64key://, hashivault://,
	// awskms://, gcpkms:// or azurekeyvault://.
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}

type kmsService struct{}

// NewKMSService returns a KMSService backed by the gocloud.dev secrets drivers.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	if !strings.Contains(keyURI, "://") {
		return nil, fmt.Errorf("%w: failed to open KMS keeper: %q is not a keeper URI",
			cryptoDomain.ErrKeyWrapFailed, keyURI)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open KMS keeper: %v", cryptoDomain.ErrKeyWrapFailed, err)
	}
	return keeper, nil
}
