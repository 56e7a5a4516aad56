package dataset

const sampleSnapshot = `
schema: 2
stores:
  - {store: 1001-Centro, banner: Casa}
  - {store: 2002-Norte, banner: Outlet}
sales:
  - {store: 1001-Centro, month: 2025-01, scenario: Real, value: 10000000}
  - {store: 1001-Centro, month: 2025-01, scenario: Presupuesto, value: 9000000}
  - {store: 2002-Norte, month: 2025-01, scenario: Real}
contribution:
  - {store: 1001-Centro, month: 2025-01, scenario: Real, value: 0.30}
headcount:
  - store: 1001-Centro
    roles:
      - {role: Jefe, count: 1}
      - {role: Fulltime, count: 2}
roleCosts:
  - {role: Jefe, fixed: [900000, 100000], commission: 0.004}
  - {role: Fulltime, fixed: [500000], commission: 0.01}
rent:
  - {store: 1001-Centro, vmmUF: 100, percentage: 0.05, ggcc: 250000, decemberFactor: 1.5}
  - {store: 2002-Norte, vmmUF: 40, percentage: 4}
otherCosts:
  - {banner: Casa, rate: 0.02}
paymentCommission: []
network: {monthlySpend: 1000000, retailShare: 0.6}
uf:
  - {date: 2024-12-15, value: 37000}
  - {date: 2025-01-13, value: 37100}
`
