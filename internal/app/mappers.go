package app

import (
	"strconv"
	"strings"

	"lightbnb/internal/domain"
	"lightbnb/internal/storage/search"
)

/********** alias registries (single source of truth) **********/

var userAliases = map[string][]string{
	"name":     {"name", "full_name", "fullName", "user.name"},
	"email":    {"email", "email_address", "emailAddress", "user.email"},
	"password": {"password", "password_hash", "passwordHash"},
}

var propertyAliases = map[string][]string{
	"title":       {"title", "name", "headline"},
	"description": {"description", "summary"},
	"thumbnail":   {"thumbnail_photo_url", "thumbnail", "photos.thumbnail"},
	"cover":       {"cover_photo_url", "cover", "photos.cover"},
	"country":     {"country", "address.country"},
	"street":      {"street", "address.street"},
	"city":        {"city", "address.city", "town"},
	"province":    {"province", "address.province", "state", "address.state"},
	"post_code":   {"post_code", "postcode", "zip", "address.post_code", "address.postcode", "address.zip"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

func intOr(m map[string]any, def int, paths ...string) int {
	if v := firstInt64Flexible(m, paths...); v != nil {
		return int(*v)
	}
	return def
}

// boolFlexible accepts JSON booleans and "true"/"1"-style strings.
func boolFlexible(m map[string]any, def bool, paths ...string) bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			return v
		case float64:
			return v != 0
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		}
	}
	return def
}

/********** user mapper **********/

func mapUser(u map[string]any) domain.NewUser {
	return domain.NewUser{
		Name:     deref(firstNonEmptyAlias(u, userAliases, "name")),
		Email:    deref(firstNonEmptyAlias(u, userAliases, "email")),
		Password: deref(firstNonEmptyAlias(u, userAliases, "password")),
	}
}

/********** property mapper **********/

// mapProperty converts a fixture record. owner_id is the fixture's user id;
// the caller rewrites it to the stored id. cost_per_night is taken as minor
// units; "price" is major units and gets converted.
func mapProperty(p map[string]any) domain.NewProperty {
	np := domain.NewProperty{
		Title:             deref(firstNonEmptyAlias(p, propertyAliases, "title")),
		Description:       firstNonEmptyAlias(p, propertyAliases, "description"),
		ThumbnailPhotoURL: firstNonEmptyAlias(p, propertyAliases, "thumbnail"),
		CoverPhotoURL:     firstNonEmptyAlias(p, propertyAliases, "cover"),
		ParkingSpaces:     intOr(p, 0, "parking_spaces", "parking"),
		NumberOfBathrooms: intOr(p, 0, "number_of_bathrooms", "bathrooms"),
		NumberOfBedrooms:  intOr(p, 0, "number_of_bedrooms", "bedrooms"),
		Country:           firstNonEmptyAlias(p, propertyAliases, "country"),
		Street:            firstNonEmptyAlias(p, propertyAliases, "street"),
		City:              firstNonEmptyAlias(p, propertyAliases, "city"),
		Province:          firstNonEmptyAlias(p, propertyAliases, "province"),
		PostCode:          firstNonEmptyAlias(p, propertyAliases, "post_code"),
		Active:            boolFlexible(p, true, "active", "is_active"),
	}
	if v := firstInt64Flexible(p, "owner_id", "ownerId", "owner.id"); v != nil {
		np.OwnerID = *v
	}
	if v := firstInt64Flexible(p, "cost_per_night"); v != nil {
		np.CostPerNight = *v
	} else if f := getFloatFlexible(p, "price", "price_per_night"); f != nil {
		np.CostPerNight = search.ToMinorUnits(*f)
	}
	return np
}

/********** review mapper **********/

// mapReview returns the review with fixture ids for guest and property.
func mapReview(r map[string]any) domain.Review {
	rv := domain.Review{
		Rating:  intOr(r, 0, "rating", "score", "stars"),
		Message: firstNonEmptyAlias(r, map[string][]string{"msg": {"message", "text", "comment"}}, "msg"),
	}
	if v := firstInt64Flexible(r, "guest_id", "guestId", "user_id"); v != nil {
		rv.GuestID = *v
	}
	if v := firstInt64Flexible(r, "property_id", "propertyId"); v != nil {
		rv.PropertyID = *v
	}
	return rv
}
