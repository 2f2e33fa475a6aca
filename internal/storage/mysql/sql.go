package mysql

import "lightbnb/internal/storage/search"

const userColumns = `id, name, email, password`

const getUserWithEmailSQL = `
SELECT ` + userColumns + `
FROM users
WHERE email = ?
`

const getUserWithIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = ?
`

const insertUserSQL = `
INSERT INTO users (name, email, password)
VALUES (?, ?, ?)
`

const insertPropertySQL = `
INSERT INTO properties
  (owner_id, title, description, thumbnail_photo_url, cover_photo_url,
   cost_per_night, parking_spaces, number_of_bathrooms, number_of_bedrooms,
   country, street, city, province, post_code, active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getPropertySQL = `
SELECT ` + search.PropertyColumns + `
FROM properties p
WHERE p.id = ?
`

const insertReviewSQL = `
INSERT INTO property_reviews (guest_id, property_id, reservation_id, rating, message)
VALUES (?, ?, ?, ?, ?)
`

// Past reservations only: a stay is history once its end date is before today.
const getAllReservationsSQL = `
SELECT
  res.id, res.start_date, res.end_date, res.property_id, res.guest_id,
  ` + search.PropertyColumns + `,
  AVG(r.rating) AS average_rating
FROM reservations res
JOIN properties p ON p.id = res.property_id
LEFT JOIN property_reviews r ON r.property_id = p.id
WHERE res.guest_id = ?
  AND res.end_date < CURRENT_DATE
GROUP BY res.id, p.id
ORDER BY res.start_date ASC, res.id ASC
LIMIT ?
`
