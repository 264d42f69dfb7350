package auth

import (
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/tagmanager/v2"
)

// Scopes returns the OAuth scopes requested on login. Service account and
// ADC tokens are minted with the same list so every auth method carries
// identical permissions.
func Scopes() []string {
	return []string{
		tagmanager.TagmanagerReadonlyScope,
		tagmanager.TagmanagerEditContainersScope,
		tagmanager.TagmanagerEditContainerversionsScope,
		tagmanager.TagmanagerPublishScope,
		tagmanager.TagmanagerManageAccountsScope,
		tagmanager.TagmanagerManageUsersScope,
		tagmanager.TagmanagerDeleteContainersScope,
		googleoauth2.UserinfoEmailScope,
		googleoauth2.UserinfoProfileScope,
	}
}
