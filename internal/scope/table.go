// internal/scope/table.go
package scope

import (
	"github.com/google/uuid"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type builder func(o *ownership) (Scope, error)

type idSet func(o *ownership) ([]uuid.UUID, error)

var (
	franchisorFranchises idSet = (*ownership).ownedFranchises
	franchiseeUnits      idSet = (*ownership).ownUnits
	franchiseeFranchises idSet = (*ownership).ownUnitFranchises
)

func all(*ownership) (Scope, error) { return allRows(), nil }

// self matches rows whose column holds the caller's id.
func self(column string) builder {
	return func(o *ownership) (Scope, error) {
		return where(column+" = ?", o.principal.UserID), nil
	}
}

// in matches rows whose column is in the id set; an empty set is no rows.
func in(column string, ids idSet) builder {
	return func(o *ownership) (Scope, error) {
		set, err := ids(o)
		if err != nil {
			return Scope{}, err
		}
		if len(set) == 0 {
			return noRows(), nil
		}
		return where(column+" IN ?", set), nil
	}
}

// inSub matches rows whose column is in a subquery taking the id set.
func inSub(column, subquery string, ids idSet) builder {
	return func(o *ownership) (Scope, error) {
		set, err := ids(o)
		if err != nil {
			return Scope{}, err
		}
		if len(set) == 0 {
			return noRows(), nil
		}
		return where(column+" IN ("+subquery+")", set), nil
	}
}

func either(builders ...builder) builder {
	return func(o *ownership) (Scope, error) {
		scopes := make([]Scope, 0, len(builders))
		for _, b := range builders {
			s, err := b(o)
			if err != nil {
				return Scope{}, err
			}
			scopes = append(scopes, s)
		}
		return anyOf(scopes...), nil
	}
}

func ownNotifications(o *ownership) (Scope, error) {
	return where("notifications.notifiable_type = ? AND notifications.notifiable_id = ?",
		models.NotifiableUser, o.principal.UserID), nil
}

const staffOfUnits = "SELECT staff_units.staff_id FROM staff_units WHERE staff_units.unit_id IN ? AND staff_units.deleted_at IS NULL"

var table = map[models.UserRole]map[Resource]builder{
	models.RoleAdmin: {
		Franchise:        all,
		Unit:             all,
		Lead:             all,
		Task:             all,
		TechnicalRequest: all,
		Revenue:          all,
		Royalty:          all,
		Product:          all,
		Document:         all,
		Review:           all,
		Transaction:      all,
		Staff:            all,
		Property:         all,
		Notification:     ownNotifications,
		User:             all,
	},
	models.RoleFranchisor: {
		Franchise:        self("franchises.franchisor_id"),
		Unit:             in("units.franchise_id", franchisorFranchises),
		Lead:             in("leads.franchise_id", franchisorFranchises),
		Task:             either(self("tasks.created_by"), in("tasks.franchise_id", franchisorFranchises)),
		TechnicalRequest: in("technical_requests.franchise_id", franchisorFranchises),
		Revenue:          in("revenues.franchise_id", franchisorFranchises),
		Royalty:          in("royalties.franchise_id", franchisorFranchises),
		Product:          in("products.franchise_id", franchisorFranchises),
		Document:         in("documents.franchise_id", franchisorFranchises),
		Review:           in("reviews.franchise_id", franchisorFranchises),
		Transaction:      in("transactions.franchise_id", franchisorFranchises),
		Staff:            in("staff_members.franchise_id", franchisorFranchises),
		Notification:     ownNotifications,
	},
	models.RoleFranchisee: {
		Unit:             self("units.franchisee_id"),
		Task:             in("tasks.unit_id", franchiseeUnits),
		TechnicalRequest: in("technical_requests.unit_id", franchiseeUnits),
		Revenue:          in("revenues.unit_id", franchiseeUnits),
		Royalty:          in("royalties.unit_id", franchiseeUnits),
		Product:          in("products.franchise_id", franchiseeFranchises),
		Document:         either(in("documents.unit_id", franchiseeUnits), self("documents.uploaded_by")),
		Review:           self("reviews.user_id"),
		Transaction:      in("transactions.unit_id", franchiseeUnits),
		Staff:            inSub("staff_members.id", staffOfUnits, franchiseeUnits),
		Notification:     ownNotifications,
	},
	models.RoleBroker: {
		Franchise:        self("franchises.broker_id"),
		Lead:             either(self("leads.assigned_to"), self("leads.created_by")),
		Task:             self("tasks.assigned_to"),
		TechnicalRequest: either(self("technical_requests.assigned_to"), self("technical_requests.requester_id")),
		Document:         self("documents.uploaded_by"),
		Review:           self("reviews.user_id"),
		Property:         self("properties.broker_id"),
		Notification:     ownNotifications,
	},
}
