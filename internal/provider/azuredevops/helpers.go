package azuredevops

import (
	"errors"
	"net/http"
	"strings"

	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/provider/common"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

// TF401232: Work item does not exist, or you do not have permissions to read it.
const workItemNotFoundCode = "TF401232"

func convertWorkItem(workItem *workitemtracking.WorkItem, requestedID int, organizationURL string) *domain.WorkItem {
	fields := map[string]interface{}{}
	if workItem.Fields != nil {
		fields = *workItem.Fields
	}

	id := common.GetInt(workItem.Id)
	if id == 0 {
		id = requestedID
	}

	link := common.LinkHref(workItem.Links, "html")
	if link == "" {
		link = common.WorkItemWebURL(organizationURL, id)
	}

	return &domain.WorkItem{
		ID:    id,
		Title: common.FieldString(fields, domain.FieldTitle),
		Type:  common.FieldString(fields, domain.FieldType),
		State: common.FieldString(fields, domain.FieldState),
		Link:  link,
	}
}

func isNotFound(err error) bool {
	var wrapped azuredevops.WrappedError
	if errors.As(err, &wrapped) {
		return wrappedNotFound(&wrapped)
	}
	var wrappedPtr *azuredevops.WrappedError
	if errors.As(err, &wrappedPtr) && wrappedPtr != nil {
		return wrappedNotFound(wrappedPtr)
	}
	return strings.Contains(err.Error(), workItemNotFoundCode)
}

func wrappedNotFound(err *azuredevops.WrappedError) bool {
	if err.StatusCode != nil && *err.StatusCode == http.StatusNotFound {
		return true
	}
	return strings.Contains(common.GetString(err.Message), workItemNotFoundCode)
}
